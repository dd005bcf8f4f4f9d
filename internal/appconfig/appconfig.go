/*
 * calcvm - Configuration file parser.
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
 */

package appconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <key> <whitespace> <value> | <key> '=' <quoteopt> | <switch>
 * <key>   ::= <letter> *(<letter> | <number>)
 * <value> ::= *(<letter> | <number> | '.' | ':')
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 */

// Settings holds the options a calcctl run can be configured with.
// NewSettings supplies the defaults: a one-second tick period, info-level
// logging, and the zero value for every other field.
type Settings struct {
	TickPeriod time.Duration
	DumpFile   string
	DotDir     string
	LogFile    string
	LogLevel   slog.Level
	Debug      bool
}

// NewSettings returns the documented defaults.
func NewSettings() *Settings {
	return &Settings{
		TickPeriod: time.Second,
		LogLevel:   slog.LevelInfo,
	}
}

type settingType int

const (
	typeValue settingType = 1 + iota
	typeSwitch
)

type settingDef struct {
	ty    settingType
	apply func(s *Settings, value string) error
}

var settings = map[string]settingDef{}

func registerSetting(name string, fn func(s *Settings, value string) error) {
	settings[strings.ToUpper(name)] = settingDef{ty: typeValue, apply: fn}
}

func registerSwitch(name string, fn func(s *Settings) error) {
	settings[strings.ToUpper(name)] = settingDef{ty: typeSwitch, apply: func(s *Settings, _ string) error { return fn(s) }}
}

func init() {
	registerSetting("TICKPERIOD", func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("tickperiod: %w", err)
		}
		s.TickPeriod = d
		return nil
	})
	registerSetting("DUMPFILE", func(s *Settings, v string) error { s.DumpFile = v; return nil })
	registerSetting("DOTDIR", func(s *Settings, v string) error { s.DotDir = v; return nil })
	registerSetting("LOGFILE", func(s *Settings, v string) error { s.LogFile = v; return nil })
	registerSetting("LOGLEVEL", func(s *Settings, v string) error {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("loglevel: %w", err)
		}
		s.LogLevel = lvl
		return nil
	})
	registerSwitch("DEBUG", func(s *Settings) error { s.Debug = true; return nil })
}

type optionLine struct {
	line string
	pos  int
}

// LoadConfigFile reads a calcctl configuration file into a Settings value
// seeded with NewSettings' defaults.
func LoadConfigFile(name string) (*Settings, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s := NewSettings()
	reader := bufio.NewReader(file)
	lineNumber := 0
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		line := &optionLine{line: raw}
		if parseErr := line.apply(s); parseErr != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, parseErr)
		}
	}
	return s, nil
}

func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

func (line *optionLine) isEOL() bool {
	return line.pos >= len(line.line) || line.line[line.pos] == '#'
}

func (line *optionLine) getNext(inQuote bool) byte {
	line.pos++
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	if unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by)) || by == '.' || by == ':' || inQuote {
		return by
	}
	return 0
}

func (line *optionLine) getPeek() byte {
	if line.pos+1 >= len(line.line) {
		return 0
	}
	return line.line[line.pos+1]
}

func (line *optionLine) getKey() string {
	line.skipSpace()
	value := ""
	for !line.isEOL() {
		by := line.line[line.pos]
		if !unicode.IsLetter(rune(by)) && !unicode.IsNumber(rune(by)) {
			break
		}
		value += string(by)
		line.pos++
	}
	return strings.ToUpper(value)
}

// parseQuoteString parses either a bare token or a "quoted string",
// matching the configparser's handling of embedded "" as an escaped quote.
func (line *optionLine) parseQuoteString() (string, bool) {
	inQuote := false
	value := ""

	if line.getPeek() == '"' {
		inQuote = true
		_ = line.getNext(true)
	}

	for {
		by := line.getNext(inQuote)
		if by == '"' && inQuote {
			by = line.getNext(inQuote)
			if by != '"' {
				return value, true
			}
		}
		space := unicode.IsSpace(rune(by))
		if !inQuote && (space || by == 0) {
			return value, true
		}
		value += string(by)
		if line.isEOL() {
			return value, !inQuote
		}
	}
}

func (line *optionLine) apply(s *Settings) error {
	key := line.getKey()
	if key == "" {
		return nil
	}

	def, ok := settings[key]
	if !ok {
		return errors.New("unknown setting: " + key)
	}

	if def.ty == typeSwitch {
		return def.apply(s, "")
	}

	value, ok := line.parseQuoteString()
	if !ok || value == "" {
		return errors.New("setting requires a value: " + key)
	}
	return def.apply(s, value)
}

// parseUintOrZero parses a bare number, treating an empty value as zero
// ("unset").
func parseUintOrZero(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 32)
}
