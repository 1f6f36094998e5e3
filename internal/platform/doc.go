// Package platform provides cross-platform filesystem helpers. Generated
// artifacts are written through WriteFileAtomic so a crash or a failed
// write never leaves a half-written target behind.
package platform
