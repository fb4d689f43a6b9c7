package testoutput

// stripANSICodes removes CSI escape sequences from output. A sequence is
// ESC '[', parameter and intermediate bytes (0x20-0x3f), then one final byte
// (0x40-0x7e). When a non-final byte ends the run, only ESC '[' and the
// parameter bytes are dropped and the rest of the line is kept.
func stripANSICodes(data string) string {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] != 0x1b || i+1 >= len(data) || data[i+1] != '[' {
			out = append(out, data[i])
			i++
			continue
		}
		j := i + 2
		for j < len(data) && data[j] >= 0x20 && data[j] <= 0x3f {
			j++
		}
		if j < len(data) && data[j] >= 0x40 && data[j] <= 0x7e {
			j++
		}
		i = j
	}
	return string(out)
}
