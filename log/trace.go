package log

import "runtime"

type tracePoint struct {
	file     string
	line     int
	function string
}

const maxTraceDepth = 32

// callers collects the frames above the logging helpers.
func callers() []tracePoint {
	pc := make([]uintptr, maxTraceDepth)
	n := runtime.Callers(4, pc) //nolint:mnd
	frames := runtime.CallersFrames(pc[:n])
	points := make([]tracePoint, 0, n)
	for {
		f, more := frames.Next()
		points = append(points, tracePoint{file: f.File, line: f.Line, function: f.Function})
		if !more {
			break
		}
	}
	return points
}
