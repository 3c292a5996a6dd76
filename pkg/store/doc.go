// Package store archives encoded patch frames.
//
// Frames are stored under keys of the form "<session>/<seq>.vdp", where seq
// is zero-padded so keys sort in sequence order. Two implementations are
// provided: DirStore writes files below a directory, S3Store writes objects
// to an S3 bucket through the AWS SDK.
//
//	st, err := store.Open(cfg.Store)
//	if err != nil {
//	    return err
//	}
//	err = st.Put(ctx, store.Key(session, seq), frame.Encode())
package store
