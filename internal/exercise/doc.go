// Package exercise loads exercise files and turns their text into unit
// sections.
//
// An exercise file is YAML or TOML:
//
//	title: Greetings
//	audio: greetings.mp3
//	timestamps: greetings.json
//	sections:
//	  - modality: type
//	    text: "Hello world"
//	  - modality: listen
//	    text: "see the cat"
//	  - modality: diagram
//	    text: |
//	      graph TD
//	      A-->B
//
// Text is NFC-normalized and split into grapheme clusters, one unit per
// cluster. Diagram text is split into lines instead. Relative audio and
// timestamp paths resolve against the exercise file's directory.
package exercise
