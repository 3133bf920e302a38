package main

import "fmt"

type versionCmd struct{ *root }

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.stdout(), "%s version %s\n", programName, version)
	if commit != "" {
		fmt.Fprintf(v.stdout(), "commit %s\n", commit)
	}
	if date != "" {
		fmt.Fprintf(v.stdout(), "built %s\n", date)
	}
	return nil
}
