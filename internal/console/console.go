/*
 * calcvm - Interactive console.
 *
 * Copyright (c) 2026, OpenDCS Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a
 * copy of this software and associated documentation files (the "Software"),
 * to deal in the Software without restriction, including without limitation
 * the rights to use, copy, modify, merge, publish, distribute, sublicense,
 * and/or sell copies of the Software, and to permit persons to whom the
 * Software is furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 *
 * Grounded on command/reader/reader.go (the liner-driven prompt loop) and
 * command/parser/parser.go (the prefix-matching command table), trimmed to
 * calcctl's seven verbs in place of the teacher's device-command set.
 */

package console

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/opendcs/calcvm/emu"
	"github.com/opendcs/calcvm/graph"
)

type cmd struct {
	name    string
	min     int
	process func(args []string, e *emu.Emulator) (quit bool, err error)
}

var cmdList = []cmd{
	{name: "load", min: 1, process: cmdLoad},
	{name: "tick", min: 1, process: cmdTick},
	{name: "run", min: 1, process: cmdRun},
	{name: "show", min: 1, process: cmdShow},
	{name: "errors", min: 1, process: cmdErrors},
	{name: "dot", min: 1, process: cmdDot},
	{name: "quit", min: 1, process: cmdQuit},
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if len(name) >= c.min && len(name) <= len(c.name) && c.name[:len(name)] == name {
			out = append(out, c)
		}
	}
	return out
}

func completeNames(line string) []string {
	word := strings.Fields(line)
	if len(word) == 0 {
		names := make([]string, len(cmdList))
		for i, c := range cmdList {
			names[i] = c.name
		}
		return names
	}
	var out []string
	for _, m := range matchList(word[0]) {
		out = append(out, m.name)
	}
	return out
}

// ProcessCommand parses and runs one command line against e.
func ProcessCommand(line string, e *emu.Emulator) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	match := matchList(strings.ToLower(fields[0]))
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + fields[0])
	case 1:
		return match[0].process(fields[1:], e)
	default:
		return false, errors.New("ambiguous command: " + fields[0])
	}
}

// Run drives an interactive calcctl session over e until the user quits.
func Run(e *emu.Emulator) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(s string) []string { return completeNames(s) })

	for {
		command, err := line.Prompt("calcctl> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Fprintln(os.Stderr, "error reading line:", err)
			return
		}
		line.AppendHistory(command)

		quit, cmdErr := ProcessCommand(command, e)
		if cmdErr != nil {
			fmt.Fprintln(os.Stderr, "error:", cmdErr)
		}
		if quit {
			return
		}
	}
}

func cmdLoad(args []string, e *emu.Emulator) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("usage: load <dump-file>")
	}
	if err := e.LoadFile(args[0]); err != nil {
		return false, err
	}
	fmt.Printf("loaded %d block(s)\n", len(e.Blocks()))
	return false, nil
}

func cmdTick(args []string, e *emu.Emulator) (bool, error) {
	if err := e.Tick(); err != nil {
		return false, err
	}
	fmt.Println("tick complete")
	return false, nil
}

func cmdRun(args []string, e *emu.Emulator) (bool, error) {
	n := 1
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("usage: run [count]: %w", err)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if err := e.Tick(); err != nil {
			return false, err
		}
	}
	fmt.Printf("ran %d tick(s)\n", n)
	return false, nil
}

func cmdShow(args []string, e *emu.Emulator) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("usage: show <compound:block>")
	}
	compound, name, err := splitKey(args[0])
	if err != nil {
		return false, err
	}
	c := e.Block(compound, name)
	if c == nil {
		return false, errors.New("no such block: " + args[0])
	}
	fmt.Printf("%s:%s errors=%v\n", c.Compound, c.Name, c.Errors())
	return false, nil
}

func cmdErrors(args []string, e *emu.Emulator) (bool, error) {
	for _, c := range e.Blocks() {
		if errs := c.Errors(); len(errs) > 0 {
			fmt.Printf("%s:%s: %v\n", c.Compound, c.Name, errs)
		}
	}
	return false, nil
}

func cmdDot(args []string, e *emu.Emulator) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("usage: dot <compound:block>")
	}
	compound, name, err := splitKey(args[0])
	if err != nil {
		return false, err
	}
	c := e.Block(compound, name)
	if c == nil {
		return false, errors.New("no such block: " + args[0])
	}
	g, errs := graph.Extract(c.VM.Program)
	if g == nil {
		return false, errs[0]
	}
	for _, gerr := range errs {
		fmt.Fprintln(os.Stderr, "warning:", gerr)
	}
	return false, graph.WriteDOT(os.Stdout, args[0], g)
}

func cmdQuit(args []string, e *emu.Emulator) (bool, error) {
	return true, nil
}

func splitKey(token string) (compound, name string, err error) {
	i := strings.IndexByte(token, ':')
	if i < 0 {
		return "", "", errors.New("expected compound:block, got " + token)
	}
	return token[:i], token[i+1:], nil
}
