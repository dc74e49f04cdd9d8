package launch

import "strings"

// SkipPermissionsFlag is forced into the argument vector in YOLO mode.
const SkipPermissionsFlag = "--dangerously-skip-permissions"

// SafeFlags force SAFE mode for one invocation and are never forwarded.
var SafeFlags = []string{"--safe", "--no-yolo"}

// argsTerminator ends option parsing; nothing after it is ours to touch.
const argsTerminator = "--"

// StripFlags removes every occurrence of flags that appears before a "--"
// terminator, in both the bare and the --flag=value spelling.
func StripFlags(args []string, flags ...string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == argsTerminator {
			return append(out, args[i:]...)
		}
		if matchesFlag(a, flags) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// EnsureLeadingFlag returns args with flag as the first element and no other
// occurrence before a "--" terminator.
func EnsureLeadingFlag(args []string, flag string) []string {
	rest := StripFlags(args, flag)
	return append([]string{flag}, rest...)
}

func matchesFlag(arg string, flags []string) bool {
	for _, f := range flags {
		if arg == f || strings.HasPrefix(arg, f+"=") {
			return true
		}
	}
	return false
}
