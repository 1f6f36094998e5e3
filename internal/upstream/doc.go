// Package upstream fetches raw query files from pinned GitHub revisions.
// A fetch is a single GET with no retries: any transport failure or non-2xx
// status comes back as a *FetchError naming the URL, so a broken source is
// never mistaken for an unchanged one.
package upstream
