/*
Package sequencer runs cooperative state machines made of asynchronous stages.

A Stage processes one step and returns a Transition: the next stage, the end
of the flow, a cancellation or a failure. The Sequencer walks stages from an
initial one until a terminal transition, checking the context before and after
every step. There is no retained history; cycles exist only when a stage
explicitly returns an earlier stage.

Stage graphs are built with a Graph: factories are registered under stable
StageIDs and successors are referenced through Resolvers, which look the
target up lazily when a stage needs it. Forward references are therefore safe
and Validate reports any id that was referenced but never registered.
*/
package sequencer
