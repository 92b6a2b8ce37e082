// Package scheme implements the time integrators for the 1-D wall problem.
//
// Every scheme satisfies [Scheme]:
//
//   - [Analytical]: truncated Fourier series evaluated at TEnd
//   - [Explicit]: three-level explicit marching driven by an [ExplicitRule]
//     ([DuFortFrankel], [Richardson])
//   - [Implicit]: one tridiagonal solve per step, coefficients supplied by an
//     [ImplicitRule] ([Laasonen], [CrankNicolson])
//
// The marching schemes also satisfy [Stepper], which lets callers advance one
// level at a time.
//
// # Example
//
//	p, _ := grid.New(100, 300, 0, 1, 0.5, 0.1, 0.05, 0.01)
//	s, _ := scheme.New("crank-nicolson", p)
//	_ = s.Solve(ctx)
//	u := s.Solution()
//
// # Thread Safety
//
// A scheme instance is NOT safe for concurrent use. Distinct instances share
// no memory and may be solved in parallel.
package scheme
