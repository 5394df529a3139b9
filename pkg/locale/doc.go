// Package locale maps a user's language preference onto the instruction the
// model receives and the text direction the client renders.
//
// The supported set is closed: en, es, ar, zh and pt. Resolve never fails; any
// other tag, including the empty string, resolves to English. Extending the set
// is a code change to the table in locale.go.
//
//	r := locale.Resolve("es")
//	fmt.Println(r.Code, r.Direction) // es ltr
package locale
