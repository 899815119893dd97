package inference

const loggingModule = "logging"

const (
	stdLogger     = "logging.Logger"
	stdRootLogger = "logging.RootLogger"
)

// loggingMember models the members of the logging module that can produce
// a Logger.
func loggingMember(name string) Value {
	switch name {
	case "getLogger", "getLoggerClass":
		return Value{Kind: Function, QualName: loggingModule + "." + name}
	case "Logger", "RootLogger", "LoggerAdapter":
		return Value{Kind: Class, QualName: loggingModule + "." + name}
	case "root":
		return Value{Kind: Instance, QualName: stdRootLogger}
	}
	return unknown
}

// loggingCall returns the result of calling a modeled logging function.
func loggingCall(qualName string) Value {
	switch qualName {
	case "logging.getLogger", stdLogger + ".getChild":
		return Value{Kind: Instance, QualName: stdLogger}
	case "logging.getLoggerClass":
		return Value{Kind: Class, QualName: stdLogger}
	}
	return unknown
}

// loggerMethod resolves the methods of a Logger instance that return
// another Logger.
func loggerMethod(attr string) Value {
	if attr == "getChild" {
		return Value{Kind: Function, QualName: stdLogger + ".getChild"}
	}
	return unknown
}

func isStdLoggerClass(qualName string) bool {
	return qualName == stdLogger || qualName == stdRootLogger
}
