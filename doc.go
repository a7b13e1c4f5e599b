/*
Package cssmin implements a minifier for CSS 2.1 and most of CSS 3. It is
meant to shrink hand-written style sheets, including the browser hacks found
in real-world CSS, without changing what they mean.


Basics

Minification occurs in one pass. The scanner breaks up a stream of code
points (runes) into tokens such as identifiers, whitespace, strings and
comments. The parser consumes those tokens with a recursive descent over the
CSS grammar and writes the minified form of every production as soon as it
is recognized. There is no syntax tree.

The parser never gives up on its input. When the tokens stop matching the
grammar, a diagnostic is reported and the tokens are echoed with their
whitespace collapsed until a point where parsing can resume: the end of the
declaration, the end of the statement, or the end of the block.


Transformations

Whitespace and comments are removed, except for important comments that
start with "/*!". Numbers are written in their shortest form ("0.50em"
becomes ".5em") and zero lengths lose their unit. Colors are folded to the
shortest form allowed by the color policy, including rgb() values. The
trailing semicolon of each block is dropped. Identifiers are escaped where
necessary so the output parses the same as the input.


Diagnostics

Errors and warnings are values of type diag.Diagnostic with a code, a
severity from 0 (a browser would not understand the style sheet) to 4
(purely stylistic) and a position. They never stop minification. Callers
decide which severities should fail a build with diag.List.Split.
*/
package cssmin
