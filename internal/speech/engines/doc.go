// Package engines provides the speech synthesizers: espeak-ng and Piper
// (offline) and gTTS (online). Each runs a fresh subprocess per utterance.
package engines
