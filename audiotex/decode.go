package audiotex

import (
	"fmt"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DecodeFile decodes an audio file through FFmpeg into mono float32 samples
// at 44.1kHz. Any container or codec the ffmpeg binary understands works.
func DecodeFile(path string) ([]float32, error) {
	pipeReader, pipeWriter := io.Pipe()

	ffmpegCmd := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"f":   "f32le",
			"c:a": "pcm_f32le",
			"ac":  "1",
			"ar":  "44100",
		}).
		WithOutput(pipeWriter).
		ErrorToStdOut()

	errc := make(chan error, 1)
	go func() {
		errc <- ffmpegCmd.Run()
		pipeWriter.Close()
	}()

	samples, readErr := ReadPCM(pipeReader)
	// Closing the read end unblocks FFmpeg if the read stopped short.
	pipeReader.Close()
	if err := <-errc; err != nil {
		return nil, fmt.Errorf("ffmpeg audio decode failed: %w", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("failed to read decoded samples: %w", readErr)
	}
	return samples, nil
}
