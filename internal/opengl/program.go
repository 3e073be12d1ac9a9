package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"renderlib/math"
)

// program is a linked shader program and its uniform locations by name.
type program struct {
	id       uint32
	uniforms map[string]int32
}

// newProgram compiles and links a program and resolves the given uniforms.
// Uniforms the driver optimised away resolve to -1, which GL ignores.
func newProgram(vertSrc, fragSrc string, uniforms ...string) (*program, error) {
	id, err := linkProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, err
	}
	p := &program{id: id, uniforms: make(map[string]int32, len(uniforms))}
	for _, name := range uniforms {
		p.uniforms[name] = gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}
	return p, nil
}

// loc returns the location of a uniform passed to newProgram.
func (p *program) loc(name string) int32 {
	l, ok := p.uniforms[name]
	if !ok {
		panic("opengl: uniform " + name + " not resolved")
	}
	return l
}

func (p *program) use() {
	gl.UseProgram(p.id)
}

func (p *program) setInt(name string, v int32) {
	gl.Uniform1i(p.loc(name), v)
}

func (p *program) setBool(name string, v bool) {
	if v {
		gl.Uniform1i(p.loc(name), 1)
	} else {
		gl.Uniform1i(p.loc(name), 0)
	}
}

func (p *program) setFloat(name string, v float32) {
	gl.Uniform1f(p.loc(name), v)
}

func (p *program) setVec2(name string, x, y float32) {
	gl.Uniform2f(p.loc(name), x, y)
}

func (p *program) setVec3(name string, v math.Vec) {
	gl.Uniform3f(p.loc(name), v[0], v[1], v[2])
}

func (p *program) setVec4(name string, v math.Vec) {
	gl.Uniform4f(p.loc(name), v[0], v[1], v[2], v[3])
}

func (p *program) setMat(name string, m math.Mat) {
	gl.UniformMatrix4fv(p.loc(name), 1, false, &m[0])
}

func (p *program) setMats(name string, ms []math.Mat) {
	if len(ms) == 0 {
		return
	}
	gl.UniformMatrix4fv(p.loc(name), int32(len(ms)), false, &ms[0][0])
}

func (p *program) delete() {
	if p != nil && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", log)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
