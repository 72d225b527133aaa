// Package api builds the typed model the code emitter consumes: the class
// manifest parsed from the engine's api.json, the closed type sum with its
// engine-to-Go name translation, and the documentation index extracted from
// the engine's XML doc tree.
package api
