// Package ignore evaluates .gitignore rules the way git resolves nested
// ignore files.
//
// Patterns are compiled with github.com/sabhiram/go-gitignore, one rule set
// per ignore file. A path is checked against the rule sets from the nearest
// directory outwards; the first set with a line that applies decides, and
// inside a set the last applicable line wins:
//
//	root/.gitignore      *.log
//	root/keep/.gitignore !audit.log
//
//	m.Match("root/app.log", false)       // true
//	m.Match("root/keep/audit.log", false) // false, re-included
//
// Matchers are immutable so a directory walk can keep one per directory:
//
//	m, err := ignore.ForDir(source)
//	child, err := m.LoadDir(filepath.Join(source, "sub"))
package ignore
