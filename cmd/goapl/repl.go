package main

import (
	"bufio"
	"fmt"
	"os"
)

// runRepl drives an interactive session: read a line, dispatch `)`
// commands to the system-command collaborator, otherwise evaluate it
// against the workspace and print every non-assignment result, the way a
// traditional APL session immediately executes whatever it's given.
func runRepl(s *session) {
	defer s.close()
	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1<<20)

	prompt := "      "
	fmt.Print(prompt)
	for in.Scan() {
		line := in.Text()
		if cmd, ok := parseSystemCommand(line); ok {
			if err := s.runSystemCommand(os.Stdout, cmd); err != nil {
				printError(os.Stderr, err)
			}
			fmt.Print(prompt)
			continue
		}
		if line == "" {
			fmt.Print(prompt)
			continue
		}
		results, err := s.evalLine(line)
		if err != nil {
			printError(os.Stderr, err)
			fmt.Print(prompt)
			continue
		}
		for _, r := range results {
			printResult(os.Stdout, r.Value, r.Assigned)
		}
		fmt.Print(prompt)
	}
	fmt.Println()
}
