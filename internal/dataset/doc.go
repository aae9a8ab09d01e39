// Package dataset loads a NumPy array from disk and optionally boxes it as a
// shared handle for an external numerical runtime.
//
// One operation covers both uses:
//
//	loader := dataset.New(dataset.Options{})
//	res, err := loader.Load("32-50K.npy", false) // raw array, dtype as stored
//	res, err = loader.Load("32-50K.npy", true)   // shared handle at the runtime's precision
//
// The runtime is reached only through the ShareStrategy interface. The
// built-in HostStrategy keeps the handle in process memory; other runtimes
// plug in their own strategy (see internal/arrowshare).
package dataset
