package glproxy

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const meshVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 3) in vec4 aColor;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec4 vColor;

void main() {
	vNormal = aNormal;
	vColor = aColor;
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const meshFragmentShader = `#version 410 core
in vec3 vNormal;
in vec4 vColor;

uniform vec3 uLightDir;
uniform float uAmbient;

out vec4 FragColor;

void main() {
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	FragColor = vec4(vColor.rgb * (uAmbient + (1.0 - uAmbient) * diffuse), vColor.a);
}
`

const lineVertexShader = `#version 410 core
layout(location = 0) in vec3 aPosition;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const lineFragmentShader = `#version 410 core
uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`

// compileProgram compiles vertex and fragment shaders and links them into a program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
