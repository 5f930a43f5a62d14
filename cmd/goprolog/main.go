// Command goprolog is a minimal REPL front end for the prolog
// package: consult a file, then type queries at a "?- " prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/hornlang/goprolog/pkg/prolog"
)

func main() {
	occursCheck := flag.Bool("occurs-check", true, "enable the occurs check during unification")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		info := prolog.GetVersionInfo()
		fmt.Printf("goprolog %s (%s)\n", info.Version, info.GoVersion)
		return
	}

	rt := prolog.New(prolog.WithOccursCheck(*occursCheck))

	for _, path := range flag.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "goprolog: %v\n", err)
			os.Exit(1)
		}
		if err := rt.Consult(string(src)); err != nil {
			fmt.Fprintf(os.Stderr, "goprolog: %s: %v\n", path, err)
			os.Exit(1)
		}
	}

	repl(rt)
}

func repl(rt *prolog.Runtime) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("?- ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			runQuery(rt, line)
		}
		fmt.Print("?- ")
	}
}

func runQuery(rt *prolog.Runtime, source string) {
	sols, err := rt.Query(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	defer sols.Close()

	ctx := context.Background()
	found := false
	for {
		bindings, ok := sols.Next(ctx)
		if !ok {
			break
		}
		found = true
		printSolution(bindings)
	}
	if !found {
		fmt.Println("false.")
	}
}

func printSolution(bindings map[string]prolog.Term) {
	names := make([]string, 0, len(bindings))
	for n := range bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Println("true.")
		return
	}
	for i, n := range names {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%s = %s", n, bindings[n])
	}
	fmt.Println(".")
}
