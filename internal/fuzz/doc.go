// Package fuzztests houses Go fuzz harnesses for the wstok tokenizer
// (source -> lexer). They guard against panics and broken token invariants
// on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через FileSet, Tokenize и
// потоковый Lexer, сверяя результат с инвариантами testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/diag,
// internal/testkit.

package fuzztests
