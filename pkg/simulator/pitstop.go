package simulator

// shouldPitStop decides whether a car with stops pit stops taken so far
// comes in on this lap. Each taken stop moves the car to the next pit window,
// once all windows are used no further stops happen.
func (s *Simulator) shouldPitStop(lap, stops, totalLaps int) bool {
	if stops < 0 || stops >= s.params.maxPitStops() {
		return false
	}
	w := s.params.PitWindows[stops]
	if totalLaps <= w.MinRaceLaps {
		return false
	}
	if lap < w.FirstLap || lap > w.LastLap {
		return false
	}
	return s.rnd.Float64() > w.Threshold
}
