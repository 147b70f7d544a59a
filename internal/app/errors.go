package app

import "fmt"

// Run-level failures abort the check; the rest are recovered where they occur.
var ErrConfiguration = fmt.Errorf("configuration error")
var ErrSourceList = fmt.Errorf("target list unavailable")
var ErrFetch = fmt.Errorf("disclosure fetch failed")
var ErrRecordParse = fmt.Errorf("record timestamp unparsable")
var ErrNotify = fmt.Errorf("notification failed")
var ErrUnhandled = fmt.Errorf("internal error")
