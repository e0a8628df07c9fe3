//go:build windows

package webgpu

import "fmt"

// workgroupSize is the number of threads per workgroup of the element-wise shaders.
const workgroupSize = 256

// binaryShader builds an element-wise shader computing expr from a[idx] and b[idx].
func binaryShader(expr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        let x = a[idx];
        let y = b[idx];
        result[idx] = %s;
    }
}
`, workgroupSize, expr)
}

// unaryShader builds an element-wise shader computing expr from x = input[idx].
func unaryShader(expr string) string {
	return fmt.Sprintf(`
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(%d)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        let x = input[idx];
        result[idx] = %s;
    }
}
`, workgroupSize, expr)
}

// Element-wise expressions, keyed by shader name.
var (
	binaryExprs = map[string]string{
		"add":     "x + y",
		"sub":     "x - y",
		"mul":     "x * y",
		"div":     "x / y",
		"maximum": "max(x, y)",
		"minimum": "min(x, y)",
	}
	unaryExprs = map[string]string{
		"neg":        "-x",
		"exp":        "exp(x)",
		"log":        "log(x)",
		"tanh":       "tanh(x)",
		"sigmoid":    "1.0 / (1.0 + exp(-x))",
		"sqrt":       "sqrt(x)",
		"square":     "x * x",
		"reciprocal": "1.0 / x",
		"abs":        "abs(x)",
	}
)

// matmulShader computes C = A @ B for A [M, K] and B [K, N].
const matmulShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    M: u32,
    K: u32,
    N: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;

    if (row >= params.M || col >= params.N) {
        return;
    }

    var sum: f32 = 0.0;
    for (var k: u32 = 0u; k < params.K; k = k + 1u) {
        sum = sum + a[row * params.K + k] * b[k * params.N + col];
    }
    result[row * params.N + col] = sum;
}
`
