// Package mountcmd builds the shell command a client runs to mount a CephFS
// export.
//
// The builder is total over its inputs: missing information is replaced by
// placeholder tokens instead of producing an error, so a best-effort command
// can always be shown to the user.
package mountcmd
