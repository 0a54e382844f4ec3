// Package session implements the study session state machine.
//
// A Session is created per topic load. It keeps a due stack of drawn cards,
// presents one card at a time (regenerating it through its generator handle
// while a repeat cycle is active), proposes a verdict with the verifier and
// commits the learner's final verdict through a Recorder before advancing.
//
//	Idle -> TopicLoaded -> CardShown -> AwaitingVerdict -> CardShown | Completed
//
// A Session is not safe for concurrent use.
package session
