package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	loudness "github.com/tphakala/go-audio-loudness"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	if decoder.WavAudioFormat == wavFormatFloat {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported WAV encoding: IEEE float: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if !supportedBitDepth(bitDepth) {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d: %s", bitDepth, path)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Seek to the data chunk; its size gives the exact frame count.
	if err := decoder.FwdToPCM(); err != nil || decoder.PCMChunk == nil {
		_ = inputFile.Close()
		return nil, fmt.Errorf("PCM data not found: %s", path)
	}

	var totalFrames int64
	if frameBytes := format.NumChannels * bitDepth / bitsPerByte; frameBytes > 0 {
		totalFrames = int64(decoder.PCMSize) / int64(frameBytes)
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: totalFrames,
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

func supportedBitDepth(bitDepth int) bool {
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return true
	default:
		return false
	}
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleaveInto converts interleaved int samples into preallocated per-channel buffers.
func deinterleaveInto(data []int, channelBufs [][]float64, numChannels, framesPerChannel int, invMaxVal float64) {
	if numChannels == monoChannels {
		buf := channelBufs[0]
		for i := range framesPerChannel {
			buf[i] = float64(data[i]) * invMaxVal
		}
		return
	}

	if numChannels == stereoChannels {
		buf0, buf1 := channelBufs[0], channelBufs[1]
		for i := range framesPerChannel {
			idx := i * stereoChannels
			buf0[i] = float64(data[idx]) * invMaxVal
			buf1[i] = float64(data[idx+1]) * invMaxVal
		}
		return
	}

	for i := range framesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}
}

// progressTracker handles verbose progress logging.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// percent returns the completed share in percent, or 0 without a known length.
func (p *progressTracker) percent(currentFrames int64) int {
	if p.totalFrames == 0 {
		return 0
	}
	return min(int(float64(currentFrames)/float64(p.totalFrames)*percentScale), percentScale)
}

// reportIfNeeded logs progress if the next threshold was crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64, shortTerm float64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := p.percent(currentFrames)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%% (short-term %s)", progress, formatLUFS(shortTerm))
		p.lastProgress = progress
	}
}

// measureOptions configures how files are measured.
type measureOptions struct {
	mode     loudness.Mode
	parallel bool
	chunk    int
	verbose  bool
}

// fileProgress is reported after every decoded chunk.
type fileProgress struct {
	frames    int64
	total     int64
	shortTerm float64
}

// fileResult is the outcome of measuring one file.
type fileResult struct {
	path     string
	rate     int
	channels int
	bitDepth int
	frames   int64
	elapsed  time.Duration
	result   loudness.Result
	meter    *loudness.Meter
}

// measureFile decodes path chunk by chunk and feeds it to a new meter.
// onProgress may be nil.
func measureFile(ctx context.Context, path string, opts measureOptions, onProgress func(fileProgress)) (*fileResult, error) {
	start := time.Now()

	input, err := openWAVInput(path, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	meter, err := loudness.New(&loudness.Config{
		Channels:       input.channels,
		SampleRate:     float64(input.rate),
		Mode:           opts.mode,
		EnableParallel: opts.parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create meter for %s: %w", path, err)
	}

	chunk := opts.chunk
	if chunk <= 0 {
		chunk = bufferSize
	}

	intBuffer := &audio.IntBuffer{
		Data:   make([]int, chunk*input.channels),
		Format: input.format,
	}
	channelBufs := make([][]float64, input.channels)
	for ch := range channelBufs {
		channelBufs[ch] = make([]float64, chunk)
	}
	frameChunks := make([][]float64, input.channels)
	invMaxVal := 1.0 / getMaxValue(input.bitDepth)

	progress := newProgressTracker(input.totalFrames, opts.verbose)
	var framesRead int64

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := input.decoder.PCMBuffer(intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}

		// n counts individual samples; a trailing partial frame is dropped.
		frames := n / input.channels
		if frames == 0 {
			break
		}

		deinterleaveInto(intBuffer.Data[:frames*input.channels], channelBufs, input.channels, frames, invMaxVal)
		for ch := range frameChunks {
			frameChunks[ch] = channelBufs[ch][:frames]
		}

		if err := meter.AddFrames(frameChunks); err != nil {
			return nil, fmt.Errorf("failed to measure %s: %w", path, err)
		}
		framesRead += int64(frames)

		shortTerm := math.Inf(-1)
		if meter.Mode().Has(loudness.ModeShortTerm) {
			shortTerm, _ = meter.LoudnessShortTerm()
		}
		progress.reportIfNeeded(framesRead, shortTerm)
		if onProgress != nil {
			onProgress(fileProgress{frames: framesRead, total: input.totalFrames, shortTerm: shortTerm})
		}
	}

	return &fileResult{
		path:     path,
		rate:     input.rate,
		channels: input.channels,
		bitDepth: input.bitDepth,
		frames:   framesRead,
		elapsed:  time.Since(start),
		result:   meter.Snapshot(),
		meter:    meter,
	}, nil
}

// batchEvents receives notifications from measureAll. Any field may be nil.
// Callbacks run on worker goroutines.
type batchEvents struct {
	start    func(index int, path string)
	progress func(index int, p fileProgress)
	complete func(index int, res *fileResult, err error)
}

// fileOutcome pairs a file with its result or error.
type fileOutcome struct {
	path   string
	result *fileResult
	err    error
}

// measureAll measures files using up to jobs workers and returns outcomes in
// input order.
func measureAll(ctx context.Context, files []string, jobs int, opts measureOptions, events batchEvents) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))
	jobs = max(1, min(jobs, len(files)))

	indexes := make(chan int)
	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				path := files[i]
				if events.start != nil {
					events.start(i, path)
				}

				var onProgress func(fileProgress)
				if events.progress != nil {
					onProgress = func(p fileProgress) { events.progress(i, p) }
				}

				res, err := measureFile(ctx, path, opts, onProgress)
				outcomes[i] = fileOutcome{path: path, result: res, err: err}

				if events.complete != nil {
					events.complete(i, res, err)
				}
			}
		}()
	}

	for i := range files {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// albumResult holds readings over the union of several files.
type albumResult struct {
	files      int
	integrated float64
	rangeLU    float64
	hasI       bool
	hasLRA     bool
}

// measureAlbum combines the block logs of all successfully measured files.
// It returns nil when fewer than two files succeeded.
func measureAlbum(outcomes []fileOutcome, mode loudness.Mode) (*albumResult, error) {
	meters := make([]*loudness.Meter, 0, len(outcomes))
	for _, o := range outcomes {
		if o.err == nil && o.result != nil {
			meters = append(meters, o.result.meter)
		}
	}
	if len(meters) < minAlbumFiles {
		return nil, nil
	}

	album := &albumResult{
		files:      len(meters),
		integrated: math.Inf(-1),
	}

	var err error
	if mode.Has(loudness.ModeIntegrated) {
		if album.integrated, err = loudness.LoudnessGlobalMultiple(meters...); err != nil {
			return nil, fmt.Errorf("album integrated loudness: %w", err)
		}
		album.hasI = true
	}
	if mode.Has(loudness.ModeLRA) {
		if album.rangeLU, err = loudness.LoudnessRangeMultiple(meters...); err != nil {
			return nil, fmt.Errorf("album loudness range: %w", err)
		}
		album.hasLRA = true
	}

	return album, nil
}
