package mathutil

import "math"

// EnergyToLoudness converts a weighted mean-square energy to LUFS.
// Zero energy maps to -Inf.
func EnergyToLoudness(energy float64) float64 {
	if energy <= 0 {
		return math.Inf(-1)
	}
	return LoudnessOffset + powerDBMultiplier*math.Log10(energy)
}

// LoudnessToEnergy is the inverse of EnergyToLoudness.
func LoudnessToEnergy(lufs float64) float64 {
	return math.Pow(10, (lufs-LoudnessOffset)/powerDBMultiplier)
}

// AmplitudeToDB converts a linear amplitude to dBFS. Zero maps to -Inf.
func AmplitudeToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return amplitudeDBMultiplier * math.Log10(amplitude)
}
