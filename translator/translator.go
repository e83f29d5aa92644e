// Package translator converts WebGL2-dialect fragment shaders into desktop
// GLSL through the ANGLE shader translator.
package translator

import (
	"context"
	"fmt"

	gst "github.com/richinsley/goshadertranslator"
)

var translator *gst.ShaderTranslator

func get() (*gst.ShaderTranslator, error) {
	if translator == nil {
		t, err := gst.NewShaderTranslator(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create shader translator: %w", err)
		}
		translator = t
	}
	return translator, nil
}

// TranslateFragment takes a GLSL ES 3.00 (WebGL2) fragment shader and returns
// GLSL 4.10 core source, or ESSL when es is set for ES 3.0 contexts.
func TranslateFragment(source string, es bool) (string, error) {
	t, err := get()
	if err != nil {
		return "", err
	}
	outputFormat := gst.OutputFormatGLSL410
	if es {
		outputFormat = gst.OutputFormatESSL
	}
	translated, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", fmt.Errorf("fragment shader translation failed: %w", err)
	}
	return translated.Code, nil
}
