// Package cookies reads raw cookie values for a page's host.
//
// Three backends are supported: a Firefox profile database, a Netscape
// cookies.txt export, and a live visit that records the cookies a site sets.
// All of them apply the same domain filter so the selection matches what a
// browser extension would see when it asks for the cookies of a tab's host.
package cookies
