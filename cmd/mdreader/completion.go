package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdreader/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool // accepts source paths
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format":     {Values: []string{formatYAML, formatJSON}},
	"log-level":  {Values: []string{"trace", "debug", "info", "warn", "error"}},
	"config":     {FileGlob: "*.yaml,*.yml,*.json,*.jsonc"},
	"output":     {IsDir: true},
	"page-style": {Values: assets.NewEmbeddedLoader().Names()},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:       "read",
			Desc:       "Read markdown sources into HTML and metadata",
			Flags:      extractFlagsFromFlagSet(buildReadFlagSet(&readFlags{})),
			TakesFiles: true,
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command or topic"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var b strings.Builder
	cmds := getCommands()

	switch shell {
	case ShellBash:
		writeBash(&b, cmds)
	case ShellZsh:
		writeZsh(&b, cmds)
	case ShellFish:
		writeFish(&b, cmds)
	case ShellPowerShell:
		writePowerShell(&b, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func writeBash(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# bash completion for mdreader\n")
	b.WriteString("_mdreader_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	b.WriteString("    help)\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s styles\" -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return ;;\n")
	b.WriteString("    completion)\n")
	b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"$cur\"))\n")
	b.WriteString("        return ;;\n")
	b.WriteString("    esac\n\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		b.WriteString("    case \"$prev\" in\n")
		for _, f := range c.Flags {
			names := "--" + f.Long
			if f.Short != "" {
				names = "-" + f.Short + "|" + names
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(b, "    %s)\n        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n        return ;;\n", names, strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(b, "    %s)\n        COMPREPLY=($(compgen -f -- \"$cur\"))\n        return ;;\n", names)
			case flagDir:
				fmt.Fprintf(b, "    %s)\n        COMPREPLY=($(compgen -d -- \"$cur\"))\n        return ;;\n", names)
			}
		}
		b.WriteString("    esac\n\n")

		var words []string
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
		}
		b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(words, " "))
		b.WriteString("        return\n    fi\n")
		if c.TakesFiles {
			b.WriteString("    COMPREPLY=($(compgen -f -- \"$cur\"))\n")
		}
	}

	b.WriteString("}\n")
	b.WriteString("complete -F _mdreader_completions mdreader\n")
}

func writeZsh(b *strings.Builder, cmds []commandDef) {
	b.WriteString("#compdef mdreader\n\n")
	b.WriteString("_mdreader() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		switch {
		case len(c.Flags) > 0:
			fmt.Fprintf(b, "    %s)\n        _arguments \\\n", c.Name)
			for _, f := range c.Flags {
				fmt.Fprintf(b, "            %s \\\n", zshFlagSpec(f))
			}
			b.WriteString("            '*:source:_files'\n")
			b.WriteString("        ;;\n")
		case c.Name == "completion":
			b.WriteString("    completion)\n        _values 'shell' bash zsh fish powershell\n        ;;\n")
		case c.Name == "help":
			fmt.Fprintf(b, "    help)\n        _values 'topic' %s styles\n        ;;\n", strings.Join(commandNames(cmds), " "))
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_mdreader \"$@\"\n")
}

func zshFlagSpec(f flagDef) string {
	action := ""
	switch f.Type {
	case flagEnum:
		action = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files"
	case flagDir:
		action = ":directory:_files -/"
	case flagString, flagInt:
		action = ":value:"
	}

	desc := "[" + zshEscape(f.Desc) + "]"
	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'" + desc + action + "'"
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return strings.ReplaceAll(s, ":", "\\:")
}

func writeFish(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# fish completion for mdreader\n")
	b.WriteString("function __fish_mdreader_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_mdreader_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")

	b.WriteString("complete -c mdreader -f\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "complete -c mdreader -n __fish_mdreader_needs_command -a %s -d %s\n", c.Name, fishQuote(c.Desc))
	}
	b.WriteString("complete -c mdreader -n '__fish_mdreader_using_command completion' -a 'bash zsh fish powershell'\n")
	fmt.Fprintf(b, "complete -c mdreader -n '__fish_mdreader_using_command help' -a '%s styles'\n", strings.Join(commandNames(cmds), " "))

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_mdreader_using_command %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c mdreader -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a " + fishQuote(strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			b.WriteString(line + " -d " + fishQuote(f.Desc) + "\n")
		}
		if c.TakesFiles {
			fmt.Fprintf(b, "complete -c mdreader -n %s -F\n", cond)
		}
	}
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

func writePowerShell(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# PowerShell completion for mdreader\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdreader -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "'--"+f.Long+"'")
		}
		fmt.Fprintf(b, "        '%s' = @(%s)\n", c.Name, strings.Join(words, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    if ($elements.Count -le 2 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n    }\n\n")
	b.WriteString("    $flags = $commands[$elements[1]]\n")
	b.WriteString("    if ($null -eq $flags) { $flags = $commands['read'] }\n")
	b.WriteString("    $flags | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdreader completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:        eval \"$(mdreader completion bash)\"        # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:         eval \"$(mdreader completion zsh)\"         # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:        mdreader completion fish > ~/.config/fish/completions/mdreader.fish")
	fmt.Fprintln(w, "  PowerShell:  mdreader completion powershell | Out-String | Invoke-Expression")
}
