// Package git keeps a local clone of the content repository in sync with its remote.
//
// Sync clones the repository on first use and fast-forwards it afterwards. A local
// branch that diverged from the remote is reset to the remote head, since the clone
// is owned by blogbuilder and never edited by hand.
package git
