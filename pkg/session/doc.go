/*
Package session implements the Session Manager.

Each conversation owns one Session Context. The manager gives every
conversation its own mutex, so inbound events for the same conversation are
processed one at a time while independent conversations proceed in parallel.
Locks are reference counted and dropped once no caller holds them.
*/
package session
