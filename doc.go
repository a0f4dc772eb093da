// Package loudness measures perceived loudness and peak levels of PCM audio
// following ITU-R BS.1770 and EBU R128.
//
// A [Meter] is a streaming accumulator. Frames are pushed in chunks of any
// size and every reading can be queried between chunks:
//
//   - Momentary loudness (400 ms window) and short-term loudness (3 s window)
//   - Integrated loudness with the two-stage BS.1770 gate
//   - Loudness range (LRA) per EBU Tech 3342
//   - Per-channel sample peak and true peak
//
// # Quick Start
//
// For one-shot measurement of a buffer already in memory:
//
//	res, err := loudness.MeasureStereo(left, right, 48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%.1f LUFS, LRA %.1f LU\n", res.Integrated, res.Range)
//
// For streaming measurement:
//
//	m, err := loudness.New(&loudness.Config{
//	    Channels:   2,
//	    SampleRate: 48000,
//	    Mode:       loudness.ModeIntegrated | loudness.ModeLRA | loudness.ModeTruePeak,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for chunk := range decodedChunks {
//	    if err := m.AddFrames(chunk); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	integrated, _ := m.LoudnessGlobal()
//
// # Modes
//
// [Mode] selects which accumulators are active. [ModeIntegrated] implies
// [ModeMomentary]; [ModeLRA] implies [ModeShortTerm], which implies
// [ModeMomentary]. Querying a reading whose mode was not enabled returns
// [ErrInvalidMode].
//
// # Channels
//
// Every channel carries a [ChannelRole] that sets its weight in the energy
// sum. The default map follows the common 5.1 order L, R, C, LFE (unused),
// Ls, Rs. Use [Meter.SetChannel] or [Meter.SetChannels] to change it.
//
// # Sample Rates
//
// Rates from 8 kHz to 384 kHz are accepted. Above 96 kHz the weighted path is
// decimated by an integer factor first; true-peak detection always runs on the
// original signal.
//
// # Thread Safety
//
// A [Meter] serializes ingestion and channel-map changes. Readings may be
// queried concurrently and always observe a consistent state. Independent
// meters share nothing and can be driven from separate goroutines.
package loudness
