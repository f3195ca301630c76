package trainer

// History accumulates training metrics for the duration of one Train call.
// The per-batch series grow across all epochs and are never reset; the
// running counters cover the current phase only.
type History struct {
	TrainLoss []float64
	TrainAcc  []float64
	TestAcc   []float64

	runningLoss    float64
	runningBatches int
	correct        int
	total          int
}

// ObserveTrainBatch records one training batch.
func (h *History) ObserveTrainBatch(loss, acc float64) {
	h.TrainLoss = append(h.TrainLoss, loss)
	h.TrainAcc = append(h.TrainAcc, acc)
	h.runningLoss += loss
	h.runningBatches++
}

// FinishTrainEpoch returns the epoch's mean training loss and resets the
// running sum.
func (h *History) FinishTrainEpoch() float64 {
	mean := h.runningLoss / float64(h.runningBatches)
	h.runningLoss = 0
	h.runningBatches = 0
	return mean
}

// ObserveEvalBatch records one validation batch: its mean accuracy for the
// per-batch series and the exact correct/total pair for the epoch figure.
func (h *History) ObserveEvalBatch(acc float64, correct, total int) {
	h.TestAcc = append(h.TestAcc, acc)
	h.correct += correct
	h.total += total
}

// FinishEvalEpoch returns the exact epoch validation accuracy
// (correct predictions / examples seen, not a mean of batch means) and
// resets the counters.
func (h *History) FinishEvalEpoch() float64 {
	acc := float64(h.correct) / float64(h.total)
	h.correct = 0
	h.total = 0
	return acc
}
