//
// CoreChess - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 CoreChess Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package config

type evalConfiguration struct {
	// UseMaterialEval toggles the only scoring term the naive evaluator
	// computes - kept as a switch for parity with the rest of the engine's
	// "Use<Feature>" config style and for disabling material scoring in
	// search unit tests that want a constant-zero evaluator.
	UseMaterialEval bool

	// Tempo is a small bonus added for the side to move, which helps keep
	// the aspiration window search from oscillating between near-equal
	// positions a tempo apart.
	Tempo int16
}

// sets defaults which might be overwritten by config file.
func init() {
	Settings.Eval.UseMaterialEval = true
	Settings.Eval.Tempo = 34
}

// set defaults for configurations here in case a configuration
// is not available from the config file.
func setupEval() {
}
