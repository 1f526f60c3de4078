package report

// Schema is the JSON Schema (Draft 2020-12) for report output. It
// documents the structure written by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/ha1tch/fsm-conformance/report.schema.json",
  "title": "FSM Conformance Report",
  "description": "Output schema for fsm --format=json",
  "type": "object",
  "required": ["version", "machine"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Report format version (semver)"
    },
    "machine": { "$ref": "#/$defs/Machine" },
    "analysis": { "$ref": "#/$defs/Analysis" },
    "suite": { "$ref": "#/$defs/Suite" },
    "execution": { "$ref": "#/$defs/Execution" },
    "mutation": { "$ref": "#/$defs/Mutation" }
  },
  "$defs": {
    "Symbols": {
      "type": ["array", "null"],
      "items": { "type": "string" }
    },
    "Machine": {
      "type": "object",
      "required": ["initial", "states", "inputs", "outputs", "transitions"],
      "properties": {
        "name": { "type": "string" },
        "initial": { "type": "string" },
        "states": { "type": "array", "items": { "type": "string" } },
        "inputs": { "type": "array", "items": { "type": "string" } },
        "outputs": { "type": "array", "items": { "type": "string" } },
        "transitions": { "type": "integer", "minimum": 0 }
      }
    },
    "Pair": {
      "type": "object",
      "required": ["p", "q"],
      "properties": {
        "p": { "type": "string" },
        "q": { "type": "string" }
      }
    },
    "SetResult": {
      "type": "object",
      "required": ["sequences", "complete", "bound"],
      "properties": {
        "sequences": { "type": "array", "items": { "$ref": "#/$defs/Symbols" } },
        "complete": { "type": "boolean" },
        "undistinguished": { "type": "array", "items": { "$ref": "#/$defs/Pair" } },
        "bound": { "type": "integer", "minimum": 1 }
      }
    },
    "Cover": {
      "type": "object",
      "required": ["entries", "complete", "bound"],
      "properties": {
        "entries": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["sequence", "state"],
            "properties": {
              "sequence": { "$ref": "#/$defs/Symbols" },
              "state": { "type": "string" }
            }
          }
        },
        "complete": { "type": "boolean" },
        "missing": { "type": "array", "items": { "type": "string" } },
        "bound": { "type": "integer", "minimum": 0 }
      }
    },
    "Warning": {
      "type": "object",
      "required": ["type", "state", "message"],
      "properties": {
        "type": { "enum": ["unreachable", "incomplete", "nondeterministic"] },
        "state": { "type": "string" },
        "message": { "type": "string" }
      }
    },
    "Analysis": {
      "type": "object",
      "required": ["distinguishing_sequence", "has_distinguishing_sequence", "characterizing_set", "identifying_sets", "state_cover"],
      "properties": {
        "distinguishing_sequence": { "$ref": "#/$defs/Symbols" },
        "has_distinguishing_sequence": { "type": "boolean" },
        "characterizing_set": { "$ref": "#/$defs/SetResult" },
        "identifying_sets": {
          "type": "object",
          "additionalProperties": { "$ref": "#/$defs/SetResult" }
        },
        "state_cover": { "$ref": "#/$defs/Cover" },
        "warnings": { "type": "array", "items": { "$ref": "#/$defs/Warning" } }
      }
    },
    "Suite": {
      "type": "object",
      "required": ["method", "reset", "minimized", "size", "tests"],
      "properties": {
        "method": { "enum": ["w", "wp"] },
        "reset": { "type": "string", "minLength": 1 },
        "minimized": { "type": "boolean" },
        "size": { "type": "integer", "minimum": 0 },
        "tests": { "type": "array", "items": { "type": "string" } }
      }
    },
    "Execution": {
      "type": "object",
      "required": ["verdicts", "passed", "failed"],
      "properties": {
        "verdicts": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["test", "passed", "expected", "actual", "divergence"],
            "properties": {
              "test": { "type": "string" },
              "passed": { "type": "boolean" },
              "expected": { "$ref": "#/$defs/Symbols" },
              "actual": { "$ref": "#/$defs/Symbols" },
              "divergence": { "type": "integer", "minimum": -1 },
              "error": { "type": "string" }
            }
          }
        },
        "passed": { "type": "integer", "minimum": 0 },
        "failed": { "type": "integer", "minimum": 0 }
      }
    },
    "Transition": {
      "type": "object",
      "required": ["from", "input", "to", "output"],
      "properties": {
        "from": { "type": "string" },
        "input": { "type": "string" },
        "to": { "type": "string" },
        "output": { "type": "string" }
      }
    },
    "Mutation": {
      "type": "object",
      "required": ["total", "killed"],
      "properties": {
        "total": { "type": "integer", "minimum": 0 },
        "killed": { "type": "integer", "minimum": 0 },
        "survivors": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["kind", "original", "replacement"],
            "properties": {
              "kind": { "enum": ["output", "transfer"] },
              "original": { "$ref": "#/$defs/Transition" },
              "replacement": { "type": "string" }
            }
          }
        }
      }
    }
  }
}`
