package codegen

import "fmt"

// Target selects the backend the generated reducers are written for.
type Target int

const (
	// Native emits C for the CPU runtime.
	Native Target = iota

	// Accelerated emits CUDA for the GPU runtime.
	Accelerated
)

func (t Target) String() string {
	switch t {
	case Native:
		return "native"
	case Accelerated:
		return "accelerated"
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// qualifier prefixes every generated function and global.
func (t Target) qualifier() string {
	if t == Accelerated {
		return "__device__ "
	}
	return ""
}

// TemplateName is the file name of the target's default runtime template.
func (t Target) TemplateName() string {
	if t == Accelerated {
		return "hvm.cu"
	}
	return "hvm.c"
}
