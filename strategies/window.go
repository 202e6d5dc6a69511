package strategies

// window is a fixed-capacity rolling price buffer with an O(1) running sum.
type window struct {
	buf  []float64
	head int
	n    int
	sum  float64
}

func newWindow(size int) *window {
	return &window{buf: make([]float64, size)}
}

func (w *window) push(v float64) {
	if w.n == len(w.buf) {
		w.sum -= w.buf[w.head]
	} else {
		w.n++
	}
	w.buf[w.head] = v
	w.sum += v
	w.head = (w.head + 1) % len(w.buf)
}

func (w *window) full() bool { return w.n == len(w.buf) }

func (w *window) mean() float64 {
	if w.n == 0 {
		return 0
	}
	return w.sum / float64(w.n)
}

// oldest returns the earliest value still inside the window.
func (w *window) oldest() float64 {
	if w.n < len(w.buf) {
		return w.buf[0]
	}
	return w.buf[w.head]
}
