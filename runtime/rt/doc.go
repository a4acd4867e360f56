// Package rt is the reactive module runtime.
//
// Modules declare typed endpoints on a Linker. The Kernel links all loaded
// modules into a graph, validates it, and runs every threaded module on its
// own goroutine:
//
//	k := rt.NewKernel(rt.WithLogger(logger))
//	k.Load(&Camera{}, &Vision{}, &Motion{})
//	if err := k.Compile(); err != nil {
//		// *rt.CompileError lists every wiring problem
//	}
//	k.Start()
//	defer k.Stop()
//
// Each cycle of a module fetches its inputs, calls Process and publishes its
// outputs. A module that requires an input only runs after that input was
// written since its last cycle.
//
// Endpoints are created by generic constructors taking the Linker:
//
//	Require, Listen, Snoop       message inputs
//	Provide, Emit, Batch         message outputs
//	RequireBlob, ListenBlob      blob inputs
//	ProvideBlob                  blob output
//	ReadContext, WriteContext    shared records
//	Issue, Handle                commands
//	Dispatch, TaskHandler        task channels
//	LogDataReader                log data (Logger modules only)
package rt
