/*
 * calcvm - calcctl: loads a CALC dump file and runs it interactively.
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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/opendcs/calcvm/emu"
	"github.com/opendcs/calcvm/internal/appconfig"
	"github.com/opendcs/calcvm/internal/console"
	"github.com/opendcs/calcvm/internal/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optDump := getopt.StringLong("dump", 'd', "", "Dump file to load at startup")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'D', "Echo all log levels to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	settings := appconfig.NewSettings()
	if *optConfig != "" {
		loaded, err := appconfig.LoadConfigFile(*optConfig)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		settings = loaded
	}
	if *optLogFile != "" {
		settings.LogFile = *optLogFile
	}
	if *optDebug {
		settings.Debug = true
	}

	var file *os.File
	if settings.LogFile != "" {
		f, err := os.Create(settings.LogFile)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		file = f
	}

	level := new(slog.LevelVar)
	level.Set(settings.LogLevel)
	programLogger := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: level}, settings.Debug))
	slog.SetDefault(programLogger)

	slog.Info("calcctl started")

	e := emu.NewEmulator()

	dumpFile := settings.DumpFile
	if *optDump != "" {
		dumpFile = *optDump
	}
	if dumpFile != "" {
		if err := e.LoadFile(dumpFile); err != nil {
			slog.Error("failed to load dump file", "file", dumpFile, "err", err)
			os.Exit(1)
		}
		slog.Info("loaded dump file", "file", dumpFile, "blocks", len(e.Blocks()))
	}

	console.Run(e)
}
