// Package record captures the response of a system to a QSA stimulus.
//
// A [Recorder] is fed once per real-time tick with the applied stimulus,
// the measured response and the sync code that travelled with the
// stimulus. It splits the stream into traces, one per presentation, each
// holding the step, multisine and drop phases. Samples tagged
// [stimulus.SyncIgnore] (multisine priming, post-step settling and pauses)
// are discarded.
//
// Sync codes arrive as analog values and are matched within half a sample
// interval of the nominal code.
//
//	rec, err := record.NewRecorder(spec)
//	if err != nil {
//	    return err
//	}
//	rec.Start()
//	for !(rec.Started() && rec.Stopped()) {
//	    rec.Push(applied(), measured(), sync())
//	}
//	err = rec.Save(file)
//
// Push never allocates once Start has sized the trace buffers for the
// configured trace count.
package record
