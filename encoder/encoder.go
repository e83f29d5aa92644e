// Package encoder streams rendered frames into FFmpeg over a pipe and writes
// a video file. Frames are raw RGBA in texture row order; FFmpeg flips them
// into display order during encoding.
package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one rendered image with its presentation timestamp in frames.
type Frame struct {
	Pixels []uint8
	PTS    int64
}

// Encoder consumes frames from a channel and feeds them to FFmpeg.
type Encoder struct {
	frames chan *Frame
	done   chan error
}

// New starts an FFmpeg process encoding width by height RGBA frames at fps
// into outputFile. codec may be "h264" or "hevc"; ffmpegPath overrides the
// ffmpeg binary looked up on PATH when non-empty.
func New(width, height, fps int, outputFile, codec, ffmpegPath string) *Encoder {
	e := &Encoder{
		frames: make(chan *Frame, 4),
		done:   make(chan error, 1),
	}
	go e.run(width, height, fps, outputFile, codec, ffmpegPath)
	return e
}

// Frames returns the channel to send rendered frames on.
func (e *Encoder) Frames() chan<- *Frame {
	return e.frames
}

// Close signals end of stream and waits for FFmpeg to finish the file.
func (e *Encoder) Close() error {
	close(e.frames)
	return <-e.done
}

func getArgs(width, height, fps int, outputFile, codec string) (inputArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}

	// Incoming rows are bottom-up, so flip while converting.
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}

	switch runtime.GOOS {
	case "darwin":
		log.Println("Using macOS (VideoToolbox) hardware acceleration.")
		if codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		log.Println("Using software encoding pipeline (no hardware acceleration).")
		if codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if codec == "hevc" && strings.HasSuffix(outputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// run is the consumer. It owns the FFmpeg process and the write end of the
// pipe, and drains the frame channel on early failure so the producer never
// blocks on send.
func (e *Encoder) run(width, height, fps int, outputFile, codec, ffmpegPath string) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(width, height, fps, outputFile, codec)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(outputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if ffmpegPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(ffmpegPath)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- ffmpegCmd.Run()
	}()

	for frame := range e.frames {
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing pixel data on frame %d: %v", frame.PTS, err)
			break
		}
	}
	for range e.frames {
	}

	pipeWriter.Close()
	e.done <- <-errc
}
