package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexandresoliveira/bfgex/internal/trace"
)

// traceSession is the tracer of the running command.
type traceSession struct {
	tracer    trace.Tracer
	ring      *trace.RingTracer // set in ring mode, dumped when the command fails
	format    trace.Format
	heartbeat *trace.Heartbeat
	root      *trace.Span
}

var tracing *traceSession

// setupTracing inspects trace-related flags, initializes the tracer and
// attaches it to the command context.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		tracing = nil
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}

	var out io.Writer
	if traceOutput == "" || traceOutput == "-" {
		out = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		Output:     out,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	session := &traceSession{tracer: tracer, format: format}
	if ring, ok := tracer.(*trace.RingTracer); ok {
		session.ring = ring
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	session.root, ctx = trace.StartSpan(ctx, trace.ScopeDriver, cmd.CommandPath())
	cmd.SetContext(ctx)
	if heartbeatInterval > 0 {
		session.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}
	tracing = session
	return nil
}

// finishTracing closes the driver span and the tracer. In ring mode the
// buffered events are written to stderr when the command failed.
func finishTracing(cmd *cobra.Command, cmdErr error) {
	session := tracing
	tracing = nil
	if session == nil {
		return
	}
	session.heartbeat.Stop()

	detail := ""
	if cmdErr != nil {
		detail = cmdErr.Error()
	}
	session.root.End(detail)

	errOut := cmd.ErrOrStderr()
	if cmdErr != nil && session.ring != nil {
		if err := session.ring.Dump(errOut, session.format); err != nil {
			fmt.Fprintf(errOut, "trace: %v\n", err)
		}
	}
	if err := session.tracer.Flush(); err != nil {
		fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
	}
	if err := session.tracer.Close(); err != nil {
		fmt.Fprintf(errOut, "trace: close error: %v\n", err)
	}
}
