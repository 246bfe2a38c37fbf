package core

// BranchPredictor predicts the direction of conditional jumps.
type BranchPredictor interface {
	// Predict returns true if the jump at pc is predicted taken.
	Predict(pc uint64) bool
	// Update trains the predictor with the actual outcome.
	Update(pc uint64, taken bool)
	// Stats returns the prediction statistics.
	Stats() PredictorStats
	// Reset clears all predictor state and statistics.
	Reset()
}

// PredictorStats holds statistics for a branch predictor.
type PredictorStats struct {
	// Predictions is the total number of branch predictions made.
	Predictions uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s PredictorStats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

func (s *PredictorStats) record(predicted, taken bool) {
	if predicted == taken {
		s.Correct++
	} else {
		s.Mispredictions++
	}
}

// AlwaysTaken predicts every conditional jump taken.
type AlwaysTaken struct {
	stats PredictorStats
}

// NewAlwaysTaken creates a static predict-taken predictor.
func NewAlwaysTaken() *AlwaysTaken {
	return &AlwaysTaken{}
}

// Predict always returns true.
func (p *AlwaysTaken) Predict(uint64) bool {
	p.stats.Predictions++
	return true
}

// Update records the outcome.
func (p *AlwaysTaken) Update(_ uint64, taken bool) {
	p.stats.record(true, taken)
}

// Stats returns the prediction statistics.
func (p *AlwaysTaken) Stats() PredictorStats {
	return p.stats
}

// Reset clears the statistics.
func (p *AlwaysTaken) Reset() {
	p.stats = PredictorStats{}
}

// DefaultBimodalSize is the default number of counters of a Bimodal
// predictor.
const DefaultBimodalSize = 64

// Bimodal implements a table of 2-bit saturating counters indexed by the
// low bits of the PC.
type Bimodal struct {
	// States: 0=Strongly Not Taken, 1=Weakly Not Taken,
	//         2=Weakly Taken, 3=Strongly Taken
	bht  []uint8
	size uint32

	stats PredictorStats
}

// NewBimodal creates a bimodal predictor with size counters. Size must be a
// power of 2; 0 selects DefaultBimodalSize.
func NewBimodal(size uint32) *Bimodal {
	if size == 0 {
		size = DefaultBimodalSize
	}

	bp := &Bimodal{
		bht:  make([]uint8, size),
		size: size,
	}
	bp.Reset()

	return bp
}

// Y86 instructions are byte aligned, so every PC bit is significant.
func (bp *Bimodal) index(pc uint64) uint32 {
	return uint32(pc & uint64(bp.size-1))
}

// Predict returns true if the counter for pc is weakly or strongly taken.
func (bp *Bimodal) Predict(pc uint64) bool {
	bp.stats.Predictions++
	return bp.bht[bp.index(pc)] >= 2
}

// Update moves the counter for pc towards the outcome.
func (bp *Bimodal) Update(pc uint64, taken bool) {
	idx := bp.index(pc)
	counter := bp.bht[idx]

	bp.stats.record(counter >= 2, taken)

	if taken {
		if counter < 3 {
			bp.bht[idx] = counter + 1
		}
	} else {
		if counter > 0 {
			bp.bht[idx] = counter - 1
		}
	}
}

// Stats returns the prediction statistics.
func (bp *Bimodal) Stats() PredictorStats {
	return bp.stats
}

// Reset sets every counter to weakly taken and clears the statistics.
func (bp *Bimodal) Reset() {
	for i := range bp.bht {
		bp.bht[i] = 2
	}
	bp.stats = PredictorStats{}
}
