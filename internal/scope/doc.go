// Package scope provides exception handler scope tracking.
//
// # Overview
//
// The scope package tracks which except clauses enclose the node currently
// being visited. Only "named" handlers count: handlers that declare an
// exception type and bind the caught exception to a name.
//
//	try:
//	    ...
//	except ValueError as e:      # named handler: tracked
//	    logger.warning("x")      # in scope
//
//	try:
//	    ...
//	except ValueError:           # typed but unnamed: not tracked
//	    logger.warning("x")      # not in scope
//
//	try:
//	    ...
//	except:                      # bare: not tracked
//	    logger.warning("x")      # not in scope
//
// Tuples of types, "except*" groups and the legacy "except E, e" spelling
// are all recognized.
//
// # Tracking During a Walk
//
// Handlers form a stack. Use [Tracker.Within] to visit a handler body with
// the handler pushed; the handler is popped even if the visit panics:
//
//	tracker := scope.NewTracker(file)
//
//	tracker.Within(clause, func() {
//	    walk(body)  // tracker.InScope() is true if clause is named
//	})
//
// [Tracker.Enter] and [Tracker.Exit] are the underlying primitives. Enter
// returns false, and pushes nothing, for clauses that do not qualify.
//
// # Nested Handlers
//
// A call is in scope when at least one named handler is open, however
// deeply nested:
//
//	try:
//	    ...
//	except OSError as outer:
//	    try:
//	        ...
//	    except:
//	        logger.error("x")    # in scope via "outer"
package scope
