// Package rewrite applies ordered literal replacements to upstream text.
// Every find string must be present when its turn comes; a missing anchor
// means upstream drifted and the replacement list needs a human look.
package rewrite
