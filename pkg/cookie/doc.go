// Package cookie writes AES-GCM encrypted cookies and carries one-shot
// flash messages across a redirect.
//
//	_ = cookies.AddFlash(w, r, cookie.FlashMessage{Level: cookie.FlashSuccess, Text: "Email sent successfully"})
//	http.Redirect(w, r, "/content/42", http.StatusSeeOther)
//
//	// on the next request
//	for _, msg := range cookies.Flashes(w, r) { ... }
package cookie
