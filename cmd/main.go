package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/richinsley/goshaderpipe/encoder"
	"github.com/richinsley/goshaderpipe/glfwcontext"
	"github.com/richinsley/goshaderpipe/graphics"
	"github.com/richinsley/goshaderpipe/headless"
	"github.com/richinsley/goshaderpipe/manifest"
	"github.com/richinsley/goshaderpipe/options"
	"github.com/richinsley/goshaderpipe/renderer"
	"github.com/richinsley/goshaderpipe/shader"
	"github.com/richinsley/goshaderpipe/uniform"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := &options.Options{
		Manifest:    flag.String("manifest", "", "Path to the JSON pass manifest"),
		Mode:        flag.String("mode", "images", "Output mode: 'images' or 'video'"),
		OutDir:      flag.String("outdir", ".", "Directory for rendered PNG files"),
		OutputFile:  flag.String("output", "output.mp4", "Output file name for video mode"),
		Duration:    flag.Float64("duration", 10.0, "Duration to render in seconds (video mode)"),
		FPS:         flag.Int("fps", 60, "Frames per second (video mode)"),
		TimeUniform: flag.String("time-uniform", "time", "Name of the float uniform fed with frame time"),
		Codec:       flag.String("codec", "h264", "Video codec: 'h264' or 'hevc'"),
		FFMPEGPath:  flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		Headless:    flag.Bool("headless", false, "Use EGL pbuffer contexts instead of hidden windows"),
		WebGL:       flag.Bool("webgl", false, "Treat fragment shaders as WebGL2 GLSL and translate them"),
		MaxUnits:    flag.Int("maxunits", 0, "Texture unit limit per pass (0 uses the default)"),
	}
	var help = flag.Bool("help", false, "Show help message")

	flag.Parse()

	if *help || *opts.Manifest == "" {
		fmt.Println("Offline shader pass renderer")
		flag.PrintDefaults()
		return
	}

	passes, err := manifest.Load(*opts.Manifest, *opts.WebGL, *opts.Headless)
	if err != nil {
		log.Fatalf("Error loading manifest: %v", err)
	}
	log.Printf("Loaded %d pass(es) from %s", len(passes), *opts.Manifest)

	// The EGL factory creates ES 3.0 contexts, which reject the desktop
	// default vertex shader.
	if *opts.Headless {
		for i := range passes {
			if passes[i].VertexSource == "" {
				passes[i].VertexSource = shader.DefaultVertexShaderFor(true)
			}
		}
	}

	if err := run(passes, opts); err != nil {
		log.Fatalf("Rendering failed: %v", err)
	}
}

func run(passes []renderer.Pass, opts *options.Options) error {
	factory, cleanup, err := newFactory(*opts.Headless)
	if err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer cleanup()

	pipe := renderer.New(factory, *opts.MaxUnits)

	switch *opts.Mode {
	case "images":
		return renderImages(pipe, passes, *opts.OutDir)
	case "video":
		return renderVideo(pipe, passes, opts)
	default:
		return fmt.Errorf("unknown mode: %s", *opts.Mode)
	}
}

func newFactory(headlessMode bool) (graphics.Factory, func(), error) {
	if headlessMode {
		f, err := headless.New()
		if err != nil {
			return nil, nil, err
		}
		return f, f.Terminate, nil
	}
	if err := glfwcontext.Init(); err != nil {
		return nil, nil, err
	}
	return glfwcontext.New(), glfwcontext.Terminate, nil
}

// renderImages runs the passes once and writes every result as a PNG named
// after its pass.
func renderImages(pipe *renderer.Pipeline, passes []renderer.Pass, outDir string) error {
	results, err := pipe.Render(passes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for name, img := range results {
		path := filepath.Join(outDir, name+".png")
		if err := writePNG(path, img); err != nil {
			return err
		}
		log.Printf("Wrote %s", path)
	}
	return nil
}

func writePNG(path string, img *uniform.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	// Results hold rows bottom-up; PNG wants top-down.
	if err := png.Encode(f, img.FlipVertical().ToRGBA()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// renderVideo runs the passes once per frame, feeding the last pass's output
// to the encoder with the time uniform advanced each frame.
func renderVideo(pipe *renderer.Pipeline, passes []renderer.Pass, opts *options.Options) error {
	final := passes[len(passes)-1]
	totalFrames := int(*opts.Duration * float64(*opts.FPS))
	if totalFrames <= 0 {
		return fmt.Errorf("duration and fps give no frames to render")
	}

	enc := encoder.New(final.Width, final.Height, *opts.FPS, *opts.OutputFile, *opts.Codec, *opts.FFMPEGPath)
	log.Printf("Rendering %d frames at %d fps...", totalFrames, *opts.FPS)

	for i := 0; i < totalFrames; i++ {
		t := float32(float64(i) / float64(*opts.FPS))
		results, err := pipe.Render(withTime(passes, *opts.TimeUniform, t))
		if err != nil {
			enc.Close()
			return err
		}
		enc.Frames() <- &encoder.Frame{Pixels: results[final.Name].Pix, PTS: int64(i)}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding failed: %w", err)
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
	return nil
}

// withTime copies the passes with the time uniform appended to each, leaving
// the originals untouched for the next frame.
func withTime(passes []renderer.Pass, name string, t float32) []renderer.Pass {
	out := make([]renderer.Pass, len(passes))
	copy(out, passes)
	for i := range out {
		uniforms := make([]uniform.Uniform, 0, len(out[i].Uniforms)+1)
		uniforms = append(uniforms, out[i].Uniforms...)
		uniforms = append(uniforms, uniform.Uniform{Name: name, Value: uniform.Float(t)})
		out[i].Uniforms = uniforms
	}
	return out
}
