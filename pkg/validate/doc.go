// Package validate holds the field validators of the registration dialogue.
//
// Every validator is a pure function returning a Result: either Accepted with
// the normalized value to store, or Rejected with a reason for the reprompt.
// Parse failures never escape as errors.
package validate
