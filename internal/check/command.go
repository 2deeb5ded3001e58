package check

import (
	"slices"
	"strings"
)

// FilePlaceholder is replaced with the entry name in a Command's arguments.
const FilePlaceholder = "{file}"

// Command is the template for one external tool invocation.
// It is always run as an argument list, never through a shell.
type Command struct {
	Tool string   // human readable tool name, e.g. "format"
	Name string   // executable looked up on PATH, e.g. "gdformat"
	Args []string // arguments; FilePlaceholder marks where the entry name goes
}

// Argv returns the executable and the arguments for checking the named entry.
// If no argument contains FilePlaceholder, the entry name is appended.
// A name starting with '-' is given a "./" prefix so that the tool cannot read it as an option.
func (c Command) Argv(entry string) (string, []string) {
	if strings.HasPrefix(entry, "-") {
		entry = "./" + entry
	}

	args := make([]string, 0, len(c.Args)+1)
	substituted := false
	for _, a := range c.Args {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, entry)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, entry)
	}
	return c.Name, args
}

// String renders the template the way a user would type it.
func (c Command) String() string {
	return strings.Join(slices.Concat([]string{c.Name}, c.Args), " ")
}
