package core

// Overlap is the topic-set overlap ratio |a ∩ b| / max(|a|, |b|).
// It is 0 when either set is empty.
func Overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	var inter int
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}

	return float64(inter) / float64(len(large))
}

// Similar reports whether two problems probe the same weakness: the same
// main topic and a topic-set overlap STRICTLY above the threshold. An
// overlap of exactly the threshold is not similar; 2/3 against the 0.66
// default is.
func Similar(p, q *Problem, threshold float64) bool {
	if p == nil || q == nil || p.MainTopic != q.MainTopic {
		return false
	}

	return Overlap(p.TopicSet(), q.TopicSet()) > threshold
}
