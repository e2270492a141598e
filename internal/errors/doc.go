// Package errors provides coded, categorized errors for the tracked server
// and CLI.
//
// Each error has a registered code (e.g. "T011") that maps to a short
// message, a longer explanation and an HTTP status:
//
//	err := errors.New("T011").
//	    WithDetailf("no counter with id %d", id)
//
//	fmt.Println(err.Format())
//	// ERROR T011: Counter not found
//	//
//	//   no counter with id 7
//
// Error implements Unwrap, so errors.Is and errors.As see the wrapped cause.
package errors
