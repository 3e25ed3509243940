// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"unsafe"
)

const shaderSuffix = ".spv"

// spirvMagic is the first word of every SPIR-V blob.
const spirvMagic = 0x07230203

// loadShaderFilesFromDirectory get the list of files that are compiled shaders
// it is important that the file name does not contain more than two dots,
// the first is always the name of the shader, second is type, and the third one
// ensured that the shader is compiled (only compiled shaders have an .spv extension).
// All shader files will be loaded.
func loadShaderFilesFromDirectory(dir string) ([]string, []ShaderType, error) {
	var (
		shaders     []string
		shaderTypes []ShaderType
	)
	if err := filepath.Walk(dir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if strings.HasSuffix(f.Name(), shaderSuffix) {
			shader := strings.TrimSuffix(f.Name(), shaderSuffix)
			nodes := strings.Split(shader, ".")

			if len(nodes) != 2 {
				return nil
			}

			suffix := nodes[len(nodes)-1]
			switch suffix {
			case "frag":
				shaderTypes = append(shaderTypes, FragmentShaderType)
				shaders = append(shaders, path)
			case "vert":
				shaderTypes = append(shaderTypes, VertexShaderType)
				shaders = append(shaders, path)
			default:
				return nil
			}
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return shaders, shaderTypes, nil
}

// LoadShaderDirectory walks dir for compiled shaders and returns the
// first vertex and fragment stage blobs it finds.
func LoadShaderDirectory(dir string) (vertex, fragment []byte, err error) {
	shaders, shaderTypes, err := loadShaderFilesFromDirectory(dir)
	if err != nil {
		return nil, nil, err
	}

	for idx, path := range shaders {
		contents, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, nil, errors.New("ioutil.ReadFile(): " + err.Error())
		}
		if words := SliceUint32(contents); len(words) == 0 || words[0] != spirvMagic {
			return nil, nil, errors.New("not SPIR-V byte code: " + path)
		}
		switch shaderTypes[idx] {
		case VertexShaderType:
			if vertex == nil {
				vertex = contents
			}
		case FragmentShaderType:
			if fragment == nil {
				fragment = contents
			}
		}
	}

	if vertex == nil || fragment == nil {
		return nil, nil, errors.New("shader directory is missing a vertex or fragment stage")
	}
	return vertex, fragment, nil
}

type sliceHeader struct {
	Data uintptr
	Len  int
	Cap  int
}

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing
func SliceUint32(data []byte) []uint32 {
	const m = 0x7fffffff
	return (*[m / 4]uint32)(unsafe.Pointer((*sliceHeader)(unsafe.Pointer(&data)).Data))[:len(data)/4]
}
