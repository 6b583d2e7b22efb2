// Package shared holds the pieces every application service uses: input
// validation and the submission state machine that drives a write.
package shared
