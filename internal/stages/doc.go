// Package stages implements the presentation stages of dialogue flows and the
// graph builders that wire them together.
//
// Dialogue flow:
//
//	initial -> print
//	print (finished) -> fetch -> delay -> print
//	print (skipped)  -> skip -> fetch_now -> print   (ConfirmOnSkip)
//	print (skipped)  -> fetch_now -> print           (otherwise)
//	fetch, fetch_now (exhausted) -> end
//
// Auto flow:
//
//	setup -> auto_print -> fetch -> delay -> auto_print
package stages
