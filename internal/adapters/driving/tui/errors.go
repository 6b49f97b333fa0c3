package tui

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("tui: analysis service is required")

// ErrInvalidPorts is returned when no ports are provided.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

// ErrBusy is shown when an action is triggered while another one runs.
var ErrBusy = errors.New("an operation is already running")

// ErrNoReport is shown when an action needs an analysed report.
var ErrNoReport = errors.New("analyse a PDF first")

// ErrFeatureDisabled is shown when the port behind an action is not configured.
var ErrFeatureDisabled = errors.New("not available in this configuration")
