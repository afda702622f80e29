// Package prompt implements wrench's interactive input: questions that are
// asked again until their answer validates, recipient lists with tab
// completion and resource selection.
//
// A Prompter reads from In and writes to Out. When Interactive is set,
// lines are read with chzyer/readline so that arrow keys, history and tab
// completion work; otherwise plain lines are read, which is what tests and
// piped input use.
package prompt
