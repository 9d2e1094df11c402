// Package queueing evaluates multi-server queueing performance from measured
// arrival and service statistics.
//
// The expected wait in queue Wq is closed-form:
//
//   - c == 1: Kingman's VUT equation,
//     Wq = (ρ/(1−ρ)) · ((CVa²+CVs²)/2) · (1/μ)
//   - c > 1: the Sakasegawa approximation,
//     Wq = ((CVa²+CVs²)/2) · ρ^(√(2(c+1))−1) / (c·(1−ρ)) · (1/μ)
//
// which reduces to Kingman's form at c = 1. For c > 1 this is an
// approximation, not an exact result; what it preserves — and what the tests
// pin down — is that Wq increases in ρ and in both CV terms, vanishes as
// ρ → 0, diverges as ρ → 1⁻, and decreases when servers are added at fixed
// rates. An exact Erlang-C evaluator for the M/M/c case is provided alongside
// for probability-of-wait figures and as a cross-check at CV ≈ 1.
//
// Rates are per hour; waits are reported in seconds. ρ ≥ 1 is a hard stop:
// the wait is +Inf and the candidate server count is infeasible.
package queueing
