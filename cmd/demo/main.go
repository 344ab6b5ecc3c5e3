package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/augustwind/lineedit"
	"github.com/augustwind/lineedit/markup"
)

func init() {
	sort.Strings(sqlKeywords)
}

var options struct {
	Profile string `short:"p" long:"profile" default:"emacs" description:"key binding profile (emacs, emacs-apple, vim)"`
	History string `long:"history" default:"demo_history.txt" description:"history file path"`
	Config  string `long:"config" description:"optional YAML config file"`
}

func completer(ctx *lineedit.CompletionContext) {
	word := strings.ToUpper(ctx.Prefix)
	i := sort.Search(len(sqlKeywords), func(i int) bool {
		return sqlKeywords[i] >= word
	})
	for ; i < len(sqlKeywords) && strings.HasPrefix(sqlKeywords[i], word); i++ {
		ctx.Add(sqlKeywords[i])
	}
}

func inputFinished(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), ";")
}

func main() {
	if _, err := flags.Parse(&options); err != nil {
		os.Exit(1)
	}

	resolver := markup.NewResolver(markup.DetectColorDepth(os.Getenv("COLORTERM"), os.Getenv("TERM")))
	fmt.Println(resolver.Sprint(`[b]command line demo[/b]
- multi-line input terminated by a trailing semicolon
- [em]tab[/em] completion of SQL keywords, with an inline hint while idle
- history browsing ([b]ctrl+p[/b]/[b]ctrl+n[/b]) and search ([b]ctrl+r[/b])
- brace matching and auto-insertion
- kill ring ([b]alt+y[/b] to yank)`))

	history := lineedit.NewHistory(0, false)
	if err := history.Load(options.History); err != nil {
		log.Printf("history: %v", err)
	}

	e := lineedit.NewEditor(
		lineedit.WithKeyBindingProfile(options.Profile),
		lineedit.WithHistory(history),
		lineedit.WithCompleter(lineedit.WordTransformer(completer)),
		lineedit.WithInputFinished(inputFinished),
	)
	e.HintEnabled = true
	e.Completion.AutoTab = true

	if options.Config != "" {
		cfg, err := lineedit.LoadConfig(options.Config)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Apply(e)
	}
	defer e.Close()

	for {
		text, err := e.ReadLine("demo> ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(resolver.Sprint(fmt.Sprintf("[dim]-> %s[/dim]", text)))
	}
}

// NB: copied from github.com/cockroachdb/cockroach/pkg/sql/lexbase/keywords.go:KeywordNames.
var sqlKeywords = []string{
	"ABORT",
	"ACCESS",
	"ACTION",
	"ADD",
	"ADMIN",
	"AFTER",
	"AGGREGATE",
	"ALL",
	"ALTER",
	"ALWAYS",
	"ANALYSE",
	"ANALYZE",
	"AND",
	"ANNOTATE_TYPE",
	"ANY",
	"ARRAY",
	"AS",
	"ASC",
	"ASYMMETRIC",
	"AT",
	"ATTRIBUTE",
	"AUTHORIZATION",
	"AUTOMATIC",
	"AVAILABILITY",
	"BACKUP",
	"BACKUPS",
	"BEFORE",
	"BEGIN",
	"BETWEEN",
	"BIGINT",
	"BINARY",
	"BIT",
	"BOOLEAN",
	"BOTH",
	"BY",
	"CACHE",
	"CANCEL",
	"CASCADE",
	"CASE",
	"CAST",
	"CHANGEFEED",
	"CHAR",
	"CHARACTER",
	"CHECK",
	"CLOSE",
	"CLUSTER",
	"COALESCE",
	"COLLATE",
	"COLLATION",
	"COLUMN",
	"COLUMNS",
	"COMMENT",
	"COMMIT",
	"COMMITTED",
	"COMPLETE",
	"CONCURRENTLY",
	"CONFLICT",
	"CONNECTION",
	"CONSTRAINT",
	"CONSTRAINTS",
	"CONVERSION",
	"CONVERT",
	"COPY",
	"CREATE",
	"CROSS",
	"CSV",
	"CUBE",
	"CURRENT",
	"CURRENT_DATE",
	"CURRENT_TIME",
	"CURRENT_TIMESTAMP",
	"CURRENT_USER",
	"CURSOR",
	"CYCLE",
	"DATA",
	"DATABASE",
	"DATABASES",
	"DAY",
	"DEALLOCATE",
	"DEC",
	"DECIMAL",
	"DECLARE",
	"DEFAULT",
	"DEFAULTS",
	"DEFERRABLE",
	"DEFERRED",
	"DELETE",
	"DELIMITER",
	"DESC",
	"DISCARD",
	"DISTINCT",
	"DO",
	"DOMAIN",
	"DOUBLE",
	"DROP",
	"ELSE",
	"ENCODING",
	"END",
	"ENUM",
	"ESCAPE",
	"EXCEPT",
	"EXCLUDE",
	"EXCLUDING",
	"EXECUTE",
	"EXISTS",
	"EXPLAIN",
	"EXPORT",
	"EXTENSION",
	"EXTRACT",
	"FALSE",
	"FAMILY",
	"FETCH",
	"FILTER",
	"FIRST",
	"FLOAT",
	"FOLLOWING",
	"FOR",
	"FORCE",
	"FOREIGN",
	"FROM",
	"FULL",
	"FUNCTION",
	"FUNCTIONS",
	"GENERATED",
	"GLOBAL",
	"GRANT",
	"GRANTS",
	"GREATEST",
	"GROUP",
	"GROUPING",
	"GROUPS",
	"HAVING",
	"HOUR",
	"IDENTITY",
	"IF",
	"ILIKE",
	"IMMEDIATE",
	"IMPORT",
	"IN",
	"INCLUDING",
	"INCREMENT",
	"INDEX",
	"INDEXES",
	"INHERITS",
	"INITIALLY",
	"INNER",
	"INSERT",
	"INT",
	"INTEGER",
	"INTERSECT",
	"INTERVAL",
	"INTO",
	"IS",
	"ISOLATION",
	"JOIN",
	"JSON",
	"KEY",
	"KEYS",
	"LANGUAGE",
	"LAST",
	"LATERAL",
	"LEADING",
	"LEAST",
	"LEFT",
	"LEVEL",
	"LIKE",
	"LIMIT",
	"LOCAL",
	"LOCALTIME",
	"LOCALTIMESTAMP",
	"LOCKED",
	"MATCH",
	"MATERIALIZED",
	"MAXVALUE",
	"MERGE",
	"MINUTE",
	"MINVALUE",
	"MONTH",
	"NATURAL",
	"NEXT",
	"NO",
	"NONE",
	"NOT",
	"NOTHING",
	"NOWAIT",
	"NULL",
	"NULLIF",
	"NULLS",
	"NUMERIC",
	"OF",
	"OFF",
	"OFFSET",
	"ON",
	"ONLY",
	"OPERATOR",
	"OPTION",
	"OPTIONS",
	"OR",
	"ORDER",
	"ORDINALITY",
	"OTHERS",
	"OUT",
	"OUTER",
	"OVER",
	"OVERLAPS",
	"OWNED",
	"OWNER",
	"PARTIAL",
	"PARTITION",
	"PASSWORD",
	"PLACING",
	"POSITION",
	"PRECEDING",
	"PRECISION",
	"PREPARE",
	"PRESERVE",
	"PRIMARY",
	"PRIOR",
	"PRIVILEGES",
	"PROCEDURE",
	"PUBLICATION",
	"QUOTE",
	"RANGE",
	"READ",
	"REAL",
	"REASSIGN",
	"RECURSIVE",
	"REF",
	"REFERENCES",
	"REFRESH",
	"REINDEX",
	"RELEASE",
	"RENAME",
	"REPEATABLE",
	"REPLACE",
	"REPLICA",
	"RESET",
	"RESTART",
	"RESTRICT",
	"RETURNING",
	"REVOKE",
	"RIGHT",
	"ROLE",
	"ROLLBACK",
	"ROLLUP",
	"ROW",
	"ROWS",
	"RULE",
	"SAVEPOINT",
	"SCHEMA",
	"SCHEMAS",
	"SCROLL",
	"SEARCH",
	"SECOND",
	"SELECT",
	"SEQUENCE",
	"SEQUENCES",
	"SERIALIZABLE",
	"SERVER",
	"SESSION",
	"SESSION_USER",
	"SET",
	"SETOF",
	"SHARE",
	"SHOW",
	"SIMILAR",
	"SIMPLE",
	"SKIP",
	"SMALLINT",
	"SNAPSHOT",
	"SOME",
	"SQL",
	"START",
	"STATEMENT",
	"STATISTICS",
	"STDIN",
	"STDOUT",
	"STORAGE",
	"STRICT",
	"SUBSCRIPTION",
	"SUBSTRING",
	"SYMMETRIC",
	"SYSID",
	"SYSTEM",
	"TABLE",
	"TABLES",
	"TABLESPACE",
	"TEMP",
	"TEMPLATE",
	"TEMPORARY",
	"TEXT",
	"THEN",
	"TIES",
	"TIME",
	"TIMESTAMP",
	"TO",
	"TRAILING",
	"TRANSACTION",
	"TREAT",
	"TRIGGER",
	"TRIM",
	"TRUE",
	"TRUNCATE",
	"TRUSTED",
	"TYPE",
	"UNBOUNDED",
	"UNCOMMITTED",
	"UNION",
	"UNIQUE",
	"UNKNOWN",
	"UNLOGGED",
	"UNTIL",
	"UPDATE",
	"USER",
	"USING",
	"VACUUM",
	"VALID",
	"VALIDATE",
	"VALUE",
	"VALUES",
	"VARCHAR",
	"VARYING",
	"VERBOSE",
	"VERSION",
	"VIEW",
	"VOLATILE",
	"WHEN",
	"WHERE",
	"WINDOW",
	"WITH",
	"WITHIN",
	"WITHOUT",
	"WORK",
	"WRITE",
	"YEAR",
	"ZONE",
}
