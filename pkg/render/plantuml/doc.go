// Package plantuml runs the bundled PlantUML JAR as a rendering engine.
//
// Each [Engine.Invoke] spawns exactly one process:
//
//	<java> -jar <plantuml.jar> -t<format> -pipe -charset UTF-8
//
// The diagram source is written to the process's stdin, which is then closed.
// Stdout is collected as raw image bytes and stderr as diagnostic text until
// the process exits. Nothing is retried.
//
// Before spawning, the engine checks that both the JAR and the Java runtime
// exist on disk; when either is missing Invoke fails immediately with
// TOOL_NOT_FOUND or RUNTIME_NOT_FOUND and no process is started.
//
// Every run is bounded by [Engine.Timeout]. On expiry the process is killed
// and Invoke returns a TIMEOUT error; cancelling the context kills it too.
//
// # Bundled layout
//
//	<resources>/plantuml/plantuml.jar
//	<resources>/plantuml/jre/bin/java      (java.exe on Windows)
package plantuml
