package main

const (
	// Frames decoded per chunk unless --chunk overrides it
	bufferSize = 65536

	// Channel count constants for fast paths
	monoChannels   = 1
	stereoChannels = 2

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	bitsPerByte     = 8

	// WAV format tag for IEEE float samples
	wavFormatFloat = 3

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// Progress reporting
	progressInterval = 10 // Log progress every N%
	percentScale     = 100

	// Album readings need at least this many measured files
	minAlbumFiles = 2

	// Progress bar width in the TUI
	progressBarWidth = 30
)
