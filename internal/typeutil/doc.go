// Package typeutil provides class name utilities for sentrystack.
//
// # Overview
//
// The analyzer treats instances of logging.Logger (and its subclasses) as
// logging facilities. Projects that wrap the standard logger in their own
// class can declare extra classes with the -logger-classes flag:
//
//	-logger-classes=myapp.log.AppLogger,structlog.stdlib.BoundLogger
//
// # Parsing
//
// Use [ParseClasses] to turn the flag value into [Class] values:
//
//	classes := typeutil.ParseClasses("myapp.log.AppLogger")
//	// []Class{{Module: "myapp.log", Name: "AppLogger"}}
//
// Entries without a module part ("AppLogger") are skipped.
//
// # Matching
//
// The inference package produces dotted qualified names for imported
// symbols. [IsClass] compares such a name against the configured classes:
//
//	from myapp.log import AppLogger
//	log = AppLogger()   // qualified name "myapp.log.AppLogger"
//
//	typeutil.IsClass("myapp.log.AppLogger", classes) // true
package typeutil
