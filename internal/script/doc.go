// Package script models a scripted terminal session and loads it from YAML.
//
// A script file has exactly two keys holding parallel, index-aligned lists:
//
//	commands:
//	  - echo 'Hello, World!'
//	  - sudo -k true
//	  - password: SUDO_PASSWORD
//	  - sleep 3 &
//	expect:
//	  - Hello, World!
//	  - "[Pp]assword"
//	  - prompt
//	  - EOP
//
// A commands entry is text to type, or a single-key {password: ENV_NAME}
// mapping naming the environment variable that holds a secret. Whether an
// entry is a secret is decided here, once; the runner never re-inspects it.
// Any shape problem is reported as a *ConfigShapeError before a run starts.
package script
